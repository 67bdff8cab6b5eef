// Command songforge generates procedurally composed backing-track songs
// and emits them as Standard MIDI File type 1 and MIDI 2.0 UMP, following
// the engine package's GenerateSong pipeline.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ako-music/songforge/analyzer"
	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/config"
	"github.com/ako-music/songforge/engine"
	"github.com/ako-music/songforge/midiio"
	"github.com/ako-music/songforge/song"
	"github.com/ako-music/songforge/tablature"
	"github.com/ako-music/songforge/theory"
)

func arrangementFromSong(s *song.Song) (*arrangement.Arrangement, bool) {
	return arrangement.FromSong(s)
}

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:   "songforge",
		Short: "Procedural backing-track generator",
	}
	root.AddCommand(generateCmd(), analyzeCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("songforge failed")
		os.Exit(1)
	}
}

func loadParams(presetPath string) (config.GeneratorParams, error) {
	if presetPath == "" {
		return config.Default(), nil
	}
	return config.LoadParams(presetPath)
}

func generateCmd() *cobra.Command {
	var preset, outMid, outUMP string
	var seed uint32
	var showTab, humanize bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a song and write MIDI output",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadParams(preset)
			if err != nil {
				return fmt.Errorf("loading params: %w", err)
			}
			if seed != 0 {
				params.Seed = seed
			}
			if cmd.Flags().Changed("humanize") {
				params.Humanize = humanize
			}

			log.WithFields(logrus.Fields{
				"mood":      params.Mood.String(),
				"structure": params.Structure.String(),
				"style":     params.CompositionStyle.String(),
			}).Info("generating song")

			s := engine.GenerateSong(params)

			log.WithFields(logrus.Fields{"take_id": s.ID, "seed": s.Seed}).Info("generated")

			if outMid != "" {
				f, err := os.Create(outMid)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outMid, err)
				}
				defer f.Close()
				arr, _ := arrangementFromSong(s)
				if err := midiio.WriteSMF1(s, arr, f); err != nil {
					return fmt.Errorf("writing SMF1: %w", err)
				}
				log.WithField("path", outMid).Info("wrote SMF1")
			}

			if outUMP != "" {
				arr, _ := arrangementFromSong(s)
				data := midiio.WriteUMP(s, arr)
				if err := os.WriteFile(outUMP, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outUMP, err)
				}
				log.WithField("path", outUMP).Info("wrote UMP")
			}

			if showTab {
				tuning := theory.Tunings["standard"]
				tab := tablature.BuildFromChordTrack(s.Track(song.RoleChord), int(params.Key), tuning, 0)
				fmt.Print(tab.Render())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "YAML preset file (default built-in GeneratorParams)")
	cmd.Flags().StringVar(&outMid, "out", "song.mid", "SMF1 output path (empty to skip)")
	cmd.Flags().StringVar(&outUMP, "out-ump", "", "MIDI 2.0 UMP output path (empty to skip)")
	cmd.Flags().Uint32Var(&seed, "seed", 0, "override the preset's seed (0 = keep preset/wall-clock)")
	cmd.Flags().BoolVar(&showTab, "tab", false, "print a guitar tablature report for the Chord track")
	cmd.Flags().BoolVar(&humanize, "humanize", true, "apply post-process timing/velocity humanization")

	return cmd
}

func analyzeCmd() *cobra.Command {
	var preset string
	var seed uint32

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Regenerate a song from the same parameters and print its dissonance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadParams(preset)
			if err != nil {
				return fmt.Errorf("loading params: %w", err)
			}
			if seed != 0 {
				params.Seed = seed
			}

			s := engine.GenerateSong(params)
			arr, ok := arrangementFromSong(s)
			if !ok {
				return fmt.Errorf("song has no arrangement attached")
			}

			report := analyzer.Analyze(s, arr)
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "YAML preset file (default built-in GeneratorParams)")
	cmd.Flags().Uint32Var(&seed, "seed", 0, "override the preset's seed")

	return cmd
}
