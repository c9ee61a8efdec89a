// lumen-tool is a utility program for inspecting scenes and the checkpoints
// lumen leaves behind.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"lumen/blobstore"
	"lumen/checkpoint"
	"lumen/material"
	"lumen/render"
	"lumen/scenepack"
)

var cmdRoot = &cobra.Command{
	Use:          "lumen-tool",
	SilenceUsage: true,
}

var storeSpec string

func init() {
	cmdRoot.PersistentFlags().StringVar(&storeSpec, "store", ".", "Where checkpoints are kept: a directory, badger:<dir>, or gs://bucket/prefix.")

	// glog's flags (-v, -logtostderr, ...) are set through cobra.
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

var cmdPresets = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in scenes and skies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "scenes:")
		for _, name := range scenepack.Names() {
			p, err := scenepack.Build(name, "none", material.UnitVectorInUnitSphere)
			if err != nil {
				return fmt.Errorf("while building %q: %w", name, err)
			}
			marker := " "
			if name == scenepack.DefaultPreset {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-20s %2d spheres, fov %v\n", marker, name, p.Scene.Len(), p.FOV)
		}

		fmt.Fprintln(out, "skies:")
		for _, name := range scenepack.SkyNames() {
			marker := " "
			if name == scenepack.DefaultSky {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, name)
		}
		return nil
	},
}

var cmdInspect = &cobra.Command{
	Use:   "inspect NAME",
	Short: "Print the header of a checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, err := blobstore.Open(ctx, storeSpec)
		if err != nil {
			return err
		}
		defer st.Close()

		db, found, err := checkpoint.Load(ctx, st, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no checkpoint named %q", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "scene: %s\n", db.Scene)
		fmt.Fprintf(out, "size: %dx%d\n", db.Cols, db.Rows)
		fmt.Fprintf(out, "frames: %d\n", db.Frames)
		fmt.Fprintf(out, "seed: %d\n", db.Seed)
		fmt.Fprintf(out, "mean luminance: %.4f\n", db.MeanLuminance())
		return nil
	},
}

var cmdPNG = &cobra.Command{
	Use:   "png NAME OUT",
	Short: "Write the current image of a checkpoint to a local PNG file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		st, err := blobstore.Open(ctx, storeSpec)
		if err != nil {
			return err
		}
		defer st.Close()

		db, found, err := checkpoint.Load(ctx, st, args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no checkpoint named %q", args[0])
		}

		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("while creating output file: %w", err)
		}
		if err := png.Encode(f, render.Image(db)); err != nil {
			f.Close()
			return fmt.Errorf("while encoding png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("while closing output file: %w", err)
		}
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdPresets, cmdInspect, cmdPNG)
}

func main() {
	// Cobra does the real parsing; this only tells glog that flags are set.
	flag.CommandLine.Parse(nil)

	glog.CopyStandardLogTo("INFO")

	if err := cmdRoot.Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}
