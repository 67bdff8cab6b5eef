// Package midiio renders a finished Song to the two wire formats named
// in spec.md §6: Standard MIDI File type 1 (via gitlab.com/gomidi/midi/v2
// and its smf subpackage, the same library the teacher's own
// midi/generator.go builds on) and a hand-rolled MIDI 2.0 UMP container.
package midiio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
)

// Channel assignments, fixed per spec.md §6.2.
const (
	ChannelVocal    = 0
	ChannelChord    = 1
	ChannelBass     = 2
	ChannelMotif    = 3
	ChannelArpeggio = 4
	ChannelAux      = 5
	ChannelGuitar   = 6
	ChannelSE       = 7
	ChannelDrums    = 9
)

func channelForRole(r song.TrackRole) uint8 {
	switch r {
	case song.RoleVocal:
		return ChannelVocal
	case song.RoleChord:
		return ChannelChord
	case song.RoleBass:
		return ChannelBass
	case song.RoleMotif:
		return ChannelMotif
	case song.RoleArpeggio:
		return ChannelArpeggio
	case song.RoleAux:
		return ChannelAux
	case song.RoleGuitar:
		return ChannelGuitar
	case song.RoleDrums:
		return ChannelDrums
	default:
		return ChannelSE
	}
}

// GM program numbers (0-indexed), one per track role. Chosen to match
// the instrument each role plays musically; Chord=Piano and
// Bass=Fingered Bass carry over the teacher's own midi/generator.go
// choices verbatim.
func gmProgramForRole(r song.TrackRole) uint8 {
	switch r {
	case song.RoleVocal:
		return 53 // Voice Oohs
	case song.RoleChord:
		return 0 // Acoustic Grand Piano
	case song.RoleBass:
		return 33 // Electric Bass (finger)
	case song.RoleMotif:
		return 80 // Lead 1 (square)
	case song.RoleArpeggio:
		return 81 // Lead 2 (sawtooth)
	case song.RoleAux:
		return 89 // Pad 2 (warm)
	case song.RoleGuitar:
		return 25 // Acoustic Guitar (steel)
	default:
		return 0
	}
}

// sketchMetadata is embedded in track 0's MIDISKETCH:<json> text event,
// a lightweight fingerprint of the generation inputs for round-trip
// identification — not the full dissonance report, which the analyzer
// package produces separately.
type sketchMetadata struct {
	TakeID string `json:"take_id"`
	Title  string `json:"title"`
	Key    int    `json:"key"`
	BPM    int    `json:"bpm"`
	Seed   uint32 `json:"seed"`
	Mood   string `json:"mood"`
	Bars   int    `json:"bars"`
}

// WriteSMF1 renders s to a Standard MIDI File type 1 and writes it to w.
func WriteSMF1(s *song.Song, arr *arrangement.Arrangement, w io.Writer) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(uint16(arrangement.TicksPerBeat))

	meta, err := buildMetaTrack(s, arr)
	if err != nil {
		return fmt.Errorf("building meta track: %w", err)
	}
	if err := sm.Add(meta); err != nil {
		return fmt.Errorf("adding meta track: %w", err)
	}

	for _, role := range []song.TrackRole{
		song.RoleVocal, song.RoleChord, song.RoleBass, song.RoleMotif,
		song.RoleArpeggio, song.RoleAux, song.RoleGuitar, song.RoleDrums,
	} {
		track := s.Tracks[role]
		if track == nil || len(track.Notes) == 0 {
			continue
		}
		smfTrack := buildNoteTrack(s, track, role)
		if err := sm.Add(smfTrack); err != nil {
			return fmt.Errorf("adding %s track: %w", role, err)
		}
	}

	_, err = sm.WriteTo(w)
	return err
}

func buildMetaTrack(s *song.Song, arr *arrangement.Arrangement) (smf.Track, error) {
	var track smf.Track
	track.Add(0, smf.MetaMeter(arrangement.BeatsPerBar, 4))
	track.Add(0, smf.MetaTempo(float64(s.BPM)))

	for _, sec := range arr.Sections {
		track.Add(0, smf.MetaText(sec.Type.String()))
	}

	payload := sketchMetadata{
		TakeID: s.ID, Title: s.Title, Key: s.Key, BPM: s.BPM, Seed: s.Seed,
		Mood: arr.Mood.String(), Bars: int(arr.TotalTicks() / arrangement.TicksPerBar),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return track, err
	}
	track.Add(0, smf.MetaText("MIDISKETCH:"+string(data)))

	track.Close(0)
	return track, nil
}

type absEvent struct {
	tick uint32
	msg  midi.Message
}

// buildNoteTrack lays out one role's notes as a smf.Track: a channel
// program-change, then paired NoteOn/NoteOff events in absolute-tick
// order converted to deltas, transposing by the song's modulation
// amount for notes at or after the modulation tick (drums never
// transpose).
func buildNoteTrack(s *song.Song, t *song.Track, role song.TrackRole) smf.Track {
	var track smf.Track
	ch := channelForRole(role)
	if role != song.RoleDrums {
		track.Add(0, midi.ProgramChange(ch, gmProgramForRole(role)))
	}

	var events []absEvent
	for _, n := range t.Notes {
		pitch := n.Pitch
		if role != song.RoleDrums && s.ModulationApplied && n.StartTick >= s.ModulationTick {
			pitch = transpose(pitch, s.ModulationAmount)
		}
		events = append(events, absEvent{n.StartTick, midi.NoteOn(ch, pitch, n.Velocity)})
		events = append(events, absEvent{n.EndTick(), midi.NoteOff(ch, pitch)})
	}
	for _, txt := range t.Texts {
		events = append(events, absEvent{txt.Tick, smf.MetaText(txt.Text)})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	prev := uint32(0)
	for _, ev := range events {
		track.Add(ev.tick-prev, ev.msg)
		prev = ev.tick
	}
	track.Close(0)
	return track
}

func transpose(pitch uint8, amount int8) uint8 {
	p := int(pitch) + int(amount)
	if p < 0 {
		p = 0
	}
	if p > 127 {
		p = 127
	}
	return uint8(p)
}
