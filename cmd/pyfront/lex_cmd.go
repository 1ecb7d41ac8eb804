package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nsubset/pyfront/lexer"
	"github.com/nsubset/pyfront/sourcefile"
)

var lexCmd = &cobra.Command{
	Use:   "lex FILE...",
	Short: "Print the token stream produced by the lexer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := traceID()
		var batch sourcefile.Batch
		for _, path := range args {
			lexOne(&batch, path, id, len(args) > 1)
		}
		return batch.Err()
	},
}

func lexOne(batch *sourcefile.Batch, path, id string, announce bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		batch.Add(path, 0, err.Error())
		return
	}
	if announce {
		fmt.Println(prefixed(id, fmt.Sprintf("== %s ==", path)))
	}
	stream := lexer.Lex(src)
	for _, tok := range stream.Tokens {
		fmt.Println(prefixed(id, fmt.Sprintf("%-20s %6d %3d %q", tok.Kind, tok.Span.Offset, tok.Span.Length, tok.Text)))
	}
	if stream.Err != nil {
		f := sourcefile.New(path, src)
		fmt.Fprintln(os.Stderr, prefixed(id, red("%s: %s", path, stream.Err.Error())))
		fmt.Fprintln(os.Stderr, f.Caret(stream.Err.Offset))
		batch.Add(path, stream.Err.Offset, stream.Err.Error())
		return
	}
	fmt.Println(prefixed(id, green("%s: ok", path)))
}
