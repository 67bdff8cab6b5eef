package midiio

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ako-music/songforge/song"
)

// roleForChannel inverts channelForRole for the fixed channel
// assignments the writer uses; channels outside that set (no generator
// ever emits on them) map to RoleSE.
func roleForChannel(ch uint8) song.TrackRole {
	switch ch {
	case ChannelVocal:
		return song.RoleVocal
	case ChannelChord:
		return song.RoleChord
	case ChannelBass:
		return song.RoleBass
	case ChannelMotif:
		return song.RoleMotif
	case ChannelArpeggio:
		return song.RoleArpeggio
	case ChannelAux:
		return song.RoleAux
	case ChannelGuitar:
		return song.RoleGuitar
	case ChannelDrums:
		return song.RoleDrums
	default:
		return song.RoleSE
	}
}

// ReadSMF1 parses path back into a Song, used by the round-trip
// invariant (spec.md §8 item 9): every NoteEvent recovered must match
// what WriteSMF1 emitted, modulo the modulation transposition already
// baked into the file's note-on pitches.
func ReadSMF1(path string) (*song.Song, error) {
	rd, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	s := song.NewSong(0)
	for _, tempo := range rd.TempoChanges() {
		s.BPM = int(tempo.BPM)
		break
	}

	for _, tr := range rd.Tracks {
		var tick uint32
		open := map[uint8]song.NoteEvent{} // keyed by pitch, one open note per pitch per track
		for _, ev := range tr {
			tick += ev.Delta

			var ch, key, velocity uint8
			if ev.Message.GetNoteOn(&ch, &key, &velocity) && velocity > 0 {
				open[key] = song.NoteEvent{StartTick: tick, Pitch: key, Velocity: velocity}
				continue
			}
			if offCh, offKey, isOff := noteOff(ev.Message); isOff {
				if n, ok := open[offKey]; ok {
					n.Duration = tick - n.StartTick
					s.Track(roleForChannel(offCh)).Add(n)
					delete(open, offKey)
				}
			}
		}
	}
	s.SortAll()
	return s, nil
}

// noteOff normalizes both a real Note Off message and a Note On with
// velocity 0 (the common "running status" idiom) to one shape.
func noteOff(msg smf.Message) (channel, key uint8, ok bool) {
	var velocity uint8
	if msg.GetNoteOff(&channel, &key, &velocity) {
		return channel, key, true
	}
	if msg.GetNoteOn(&channel, &key, &velocity) && velocity == 0 {
		return channel, key, true
	}
	return 0, 0, false
}
