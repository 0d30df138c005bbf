package main

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/alecthomas/kong"
	yabe "github.com/yabe-format/yabe-go"
	"github.com/yabe-format/yabe-go/block"
	"github.com/yabe-format/yabe-go/merge"
	"github.com/yabe-format/yabe-go/patch"
)

type cli struct {
	Encode  encodeCmd  `cmd:"" help:"Convert JSON to YABE."`
	Decode  decodeCmd  `cmd:"" help:"Convert YABE to JSON."`
	Inspect inspectCmd `cmd:"" help:"List the tags of a YABE document."`
	Merge   mergeCmd   `cmd:"" help:"Apply an RFC 7386 merge patch to a YABE document."`
	Patch   patchCmd   `cmd:"" help:"Apply an RFC 6902 JSON patch to a YABE document."`
}

type encodeCmd struct {
	Input     string `arg:"" optional:"" default:"-" help:"JSON input file, - for stdin."`
	Output    string `short:"o" default:"-" help:"Output file, - for stdout."`
	NFC       bool   `name:"nfc" help:"Normalize strings and keys to Unicode NFC."`
	BlockSize int    `help:"Write fixed-size blocks of this many bytes, padding unused space. The JSON root must be an array."`
}

func (e *encodeCmd) Run() error {
	data, err := readInput(e.Input)
	if err != nil {
		return err
	}
	doc, err := yabe.FromJSONWithOptions(data, yabe.JSONOptions{NormalizeNFC: e.NFC})
	if err != nil {
		return err
	}
	if e.BlockSize > 0 {
		doc, err = reblock(doc, e.BlockSize)
		if err != nil {
			return err
		}
	}
	changed, err := writeOutput(e.Output, doc)
	if err != nil {
		return err
	}
	if !changed {
		log.Printf("yabe: %s unchanged", e.Output)
	}
	return nil
}

func reblock(doc []byte, size int) ([]byte, error) {
	root, err := yabe.Decode(doc)
	if err != nil {
		return nil, err
	}
	items, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("--block-size needs an array root, got %T", root)
	}
	var out bytes.Buffer
	bw, err := block.NewWriter(&out, size)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if err := bw.Encode(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type decodeCmd struct {
	Input      string `arg:"" optional:"" default:"-" help:"YABE input file, - for stdin."`
	Output     string `short:"o" default:"-" help:"Output file, - for stdout."`
	Strict     bool   `help:"Reject empty or duplicate object keys and invalid UTF-8."`
	BestEffort bool   `help:"Decode documents carrying an unknown format version."`
}

func (d *decodeCmd) Run() error {
	doc, err := readInput(d.Input)
	if err != nil {
		return err
	}
	var sb strings.Builder
	opts := yabe.DecodeOptions{Strict: d.Strict, AllowVersionMismatch: d.BestEffort}
	if err := yabe.WriteJSONWithOptions(&sb, doc, opts); err != nil {
		return err
	}
	sb.WriteByte('\n')
	_, err = writeOutput(d.Output, []byte(sb.String()))
	return err
}

type mergeCmd struct {
	Target string `arg:"" help:"YABE document to patch."`
	Patch  string `arg:"" help:"YABE merge patch document."`
	Output string `short:"o" default:"-" help:"Output file, - for stdout."`
}

func (m *mergeCmd) Run() error {
	target, err := readInput(m.Target)
	if err != nil {
		return err
	}
	p, err := readInput(m.Patch)
	if err != nil {
		return err
	}
	out, err := merge.ApplyMergePatch(target, p)
	if err != nil {
		return err
	}
	_, err = writeOutput(m.Output, out)
	return err
}

type patchCmd struct {
	Target string `arg:"" help:"YABE document to patch."`
	Patch  string `arg:"" help:"YABE document holding an array of patch operations."`
	Output string `short:"o" default:"-" help:"Output file, - for stdout."`
}

func (p *patchCmd) Run() error {
	target, err := readInput(p.Target)
	if err != nil {
		return err
	}
	ops, err := readInput(p.Patch)
	if err != nil {
		return err
	}
	out, err := patch.ApplyPatch(target, ops)
	if err != nil {
		return err
	}
	_, err = writeOutput(p.Output, out)
	return err
}

func main() {
	log.SetFlags(0)

	var args cli
	ctx := kong.Parse(&args,
		kong.Name("yabe"),
		kong.Description("Convert, inspect and patch YABE encoded documents."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		log.Fatal(err)
	}
}
