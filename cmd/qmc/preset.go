package main

import (
	"fmt"
	"strings"

	"github.com/rgonek/quill-md-converter/converter"
)

const (
	presetBalanced = "balanced"
	presetHTML     = "html"
	presetPlain    = "plain"
	presetGitHub   = "github"
)

func presetConfig(preset string) (converter.Config, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", presetBalanced:
		return converter.Config{}, nil
	case presetHTML:
		return converter.Config{
			UnderlineStyle: converter.UnderlineHTML,
		}, nil
	case presetPlain:
		return converter.Config{
			UnderlineStyle: converter.UnderlineIgnore,
		}, nil
	case presetGitHub:
		return converter.Config{
			EmDelimiter:     "_",
			StrongDelimiter: "**",
			BulletMarker:    '*',
			CodeBlockFence:  "```",
		}, nil
	default:
		return converter.Config{}, fmt.Errorf("unknown preset %q (allowed: balanced, html, plain, github)", preset)
	}
}

func resolveConfig(preset string, allowHTML bool) (converter.Config, error) {
	cfg, err := presetConfig(preset)
	if err != nil {
		return converter.Config{}, err
	}
	if allowHTML {
		cfg.UnderlineStyle = converter.UnderlineHTML
	}
	return cfg, nil
}
