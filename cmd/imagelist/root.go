package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/dodgeball-fanpage/internal/service"
)

// Options holds the flags of the imagelist command.
type Options struct {
	Base      string
	Extension string
	Start     int
	End       int
	Output    string // "-" writes to stdout.
}

// presets are the two runs the site ships with.
var presets = map[string]service.URLPattern{
	"hero": {
		Base:      "https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi_main",
		Extension: ".jpeg",
		Start:     1,
		End:       73,
	},
	"gallery": {
		Base:      "https://wprs.my-hobby.space/wp-content/uploads/2025/11/dozzi",
		Extension: ".jpeg",
		Start:     1,
		End:       1092,
	},
}

// NewRootCommand creates the imagelist command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}
	var preset string

	cmd := &cobra.Command{
		Use:   "imagelist",
		Short: "Write a numbered image URL list as JSON",
		Long: "imagelist expands a numbered run of image URLs (base + n + extension, for n from\n" +
			"start to end) into the JSON document served under /img/{feed}.json.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := service.URLPattern{Base: opts.Base, Extension: opts.Extension, Start: opts.Start, End: opts.End}
			if preset != "" {
				base, ok := presets[preset]
				if !ok {
					return fmt.Errorf("unknown preset %q: must be hero or gallery", preset)
				}
				p = overridePreset(cmd, base, opts)
			}
			return runImageList(cmd.OutOrStdout(), p, opts.Output)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "start from a built-in run (hero|gallery)")
	cmd.Flags().StringVar(&opts.Base, "base", "", "URL prefix before the number")
	cmd.Flags().StringVar(&opts.Extension, "ext", ".jpeg", "file extension including the dot")
	cmd.Flags().IntVar(&opts.Start, "start", 1, "first number")
	cmd.Flags().IntVar(&opts.End, "end", 0, "last number, inclusive")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file (- for stdout)")

	return cmd
}

// overridePreset applies the flags the user set explicitly on top of a preset.
func overridePreset(cmd *cobra.Command, p service.URLPattern, opts *Options) service.URLPattern {
	if cmd.Flags().Changed("base") {
		p.Base = opts.Base
	}
	if cmd.Flags().Changed("ext") {
		p.Extension = opts.Extension
	}
	if cmd.Flags().Changed("start") {
		p.Start = opts.Start
	}
	if cmd.Flags().Changed("end") {
		p.End = opts.End
	}
	return p
}

func runImageList(stdout io.Writer, p service.URLPattern, output string) error {
	urls, err := p.Expand()
	if err != nil {
		return err
	}
	if output == "" || output == "-" {
		return service.WriteImageList(stdout, urls)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := service.WriteImageList(f, urls); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	return nil
}
