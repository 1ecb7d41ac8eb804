package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsubset/pyfront/lexer"
	"github.com/nsubset/pyfront/parser"
	"github.com/nsubset/pyfront/sourcefile"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse each file and report ok or the sticky error",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := traceID()
		var batch sourcefile.Batch
		for _, path := range args {
			parseOne(&batch, path, id)
		}
		return batch.Err()
	},
}

func parseOne(batch *sourcefile.Batch, path, id string) {
	src, err := os.ReadFile(path)
	if err != nil {
		batch.Add(path, 0, err.Error())
		return
	}
	f := sourcefile.New(path, src)

	stream := lexer.Lex(src)
	if stream.Err != nil {
		fmt.Fprintln(os.Stderr, prefixed(id, red("%s: lex error: %s", path, stream.Err.Error())))
		fmt.Fprintln(os.Stderr, f.Caret(stream.Err.Offset))
		batch.Add(path, stream.Err.Offset, stream.Err.Error())
		return
	}

	tree := parser.Parse(stream.Tokens, parserOptions()...)
	if tree.Err != nil {
		offset := 0
		if tree.Err.TokenIndex >= 0 && tree.Err.TokenIndex < len(stream.Tokens) {
			offset = stream.Tokens[tree.Err.TokenIndex].Span.Offset
		}
		fmt.Fprintln(os.Stderr, prefixed(id, red("%s: parse error: %s", path, tree.Err.Error())))
		fmt.Fprintln(os.Stderr, f.Caret(offset))
		batch.Add(path, offset, tree.Err.Error())
		return
	}

	fmt.Println(prefixed(id, green("%s: ok", path)))
}
