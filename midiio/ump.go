package midiio

import (
	"encoding/binary"
	"encoding/json"
	"sort"

	"github.com/ako-music/songforge/arrangement"
	"github.com/ako-music/songforge/song"
)

// UMP message types (upper 4 bits of the first word), per spec.md §6.2
// and original_source/src/midi/ump.h.
const (
	umpTypeUtility           = 0x0
	umpTypeMidi1ChannelVoice = 0x2
	umpTypeData128           = 0x5
	umpTypeFlexData          = 0xD
	umpTypeStream            = 0xF

	umpStreamStartOfClip = 0x20
	umpStreamEndOfClip   = 0x21
	umpStreamDCTPQ       = 0x00
)

func putU32BE(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// makeNoteOn builds a 32-bit MIDI-1-style UMP Channel Voice Note On word.
func makeNoteOn(group, channel, note, velocity uint8) uint32 {
	return uint32(umpTypeMidi1ChannelVoice)<<28 | uint32(group&0x0F)<<24 |
		0x9<<20 | uint32(channel&0x0F)<<16 | uint32(note&0x7F)<<8 | uint32(velocity&0x7F)
}

func makeNoteOff(group, channel, note, velocity uint8) uint32 {
	return uint32(umpTypeMidi1ChannelVoice)<<28 | uint32(group&0x0F)<<24 |
		0x8<<20 | uint32(channel&0x0F)<<16 | uint32(note&0x7F)<<8 | uint32(velocity&0x7F)
}

func makeProgramChange(group, channel, program uint8) uint32 {
	return uint32(umpTypeMidi1ChannelVoice)<<28 | uint32(group&0x0F)<<24 |
		0xC<<20 | uint32(channel&0x0F)<<16 | uint32(program&0x7F)<<8
}

func makeDeltaClockstamp(group uint8, ticks uint16) uint32 {
	return uint32(umpTypeUtility)<<28 | uint32(group&0x0F)<<24 | 0x4<<20 | uint32(ticks)
}

// writeDeltaClockstamp emits one or more 32-bit DCS words covering ticks,
// splitting values over 65535 into multiple messages (spec.md §6.2).
func writeDeltaClockstamp(buf []byte, group uint8, ticks uint32) []byte {
	wrote := false
	for ticks > 0xFFFF {
		buf = putU32BE(buf, makeDeltaClockstamp(group, 0xFFFF))
		ticks -= 0xFFFF
		wrote = true
	}
	if ticks > 0 || !wrote {
		buf = putU32BE(buf, makeDeltaClockstamp(group, uint16(ticks)))
	}
	return buf
}

// writeDCTPQ emits the Delta Clockstamp Ticks Per Quarter Note UMP Stream
// message, a 128-bit word group.
func writeDCTPQ(buf []byte, ticksPerQuarter uint16) []byte {
	word0 := uint32(umpTypeStream)<<28 | uint32(umpStreamDCTPQ)<<16
	word1 := uint32(ticksPerQuarter) << 16
	buf = putU32BE(buf, word0)
	buf = putU32BE(buf, word1)
	buf = putU32BE(buf, 0)
	buf = putU32BE(buf, 0)
	return buf
}

func writeStreamMarker(buf []byte, status uint32) []byte {
	word0 := uint32(umpTypeStream)<<28 | status<<16
	buf = putU32BE(buf, word0)
	buf = putU32BE(buf, 0)
	buf = putU32BE(buf, 0)
	buf = putU32BE(buf, 0)
	return buf
}

// writeTempo emits a Flex Data tempo message; microsPerQuarter is
// 60,000,000 / BPM, matching the SMF1 track 0 tempo event's unit.
func writeTempo(buf []byte, group uint8, microsPerQuarter uint32) []byte {
	word0 := uint32(umpTypeFlexData)<<28 | uint32(group&0x0F)<<24
	buf = putU32BE(buf, word0)
	buf = putU32BE(buf, microsPerQuarter)
	buf = putU32BE(buf, 0)
	buf = putU32BE(buf, 0)
	return buf
}

// writeTimeSignature emits a Flex Data time-signature message (status 0x01).
func writeTimeSignature(buf []byte, group, numerator, denominator uint8) []byte {
	word0 := uint32(umpTypeFlexData)<<28 | uint32(group&0x0F)<<24 | 0x01

	denomPower := uint8(0)
	for d := denominator; d > 1; d >>= 1 {
		denomPower++
	}
	numOf32nds := uint8(32 / denominator)

	word1 := uint32(numerator)<<24 | uint32(denomPower)<<16 | uint32(numOf32nds)<<8
	buf = putU32BE(buf, word0)
	buf = putU32BE(buf, word1)
	buf = putU32BE(buf, 0)
	buf = putU32BE(buf, 0)
	return buf
}

const umpMetaTextType = 0x01

// writeMetadataText splits text across one or more 128-bit SysEx8
// packets following the ktmidi convention for unmapped meta events
// (ManufID/DevID/SubID all zero, then 0xFF 0xFF 0xFF + meta type byte),
// adapted from original_source/src/midi/ump.cpp's writeMetadataText.
func writeMetadataText(buf []byte, group uint8, text string) []byte {
	data := []byte(text)
	offset := 0
	for offset < len(data) || offset == 0 {
		headerBytes := 0
		if offset == 0 {
			headerBytes = 10
		}
		maxDataBytes := 14 - headerBytes
		dataBytes := maxDataBytes
		if remaining := len(data) - offset; remaining < dataBytes {
			dataBytes = remaining
		}
		totalBytes := headerBytes + dataBytes

		var status uint32
		switch {
		case len(data) <= maxDataBytes && offset == 0:
			status = 0x0
		case offset == 0:
			status = 0x1
		case offset+dataBytes >= len(data):
			status = 0x3
		default:
			status = 0x2
		}

		word0 := uint32(umpTypeData128)<<28 | uint32(group&0x0F)<<24 | status<<20 | uint32(totalBytes&0x0F)<<16
		buf = putU32BE(buf, word0)

		if offset == 0 {
			buf = putU32BE(buf, 0)
			word2 := uint32(0xFF)<<24 | uint32(0xFF)<<16 | uint32(0xFF)<<8 | umpMetaTextType
			buf = putU32BE(buf, word2)

			var word3 uint32
			n := dataBytes
			if n > 4 {
				n = 4
			}
			for i := 0; i < n; i++ {
				word3 |= uint32(data[offset+i]) << (24 - 8*i)
			}
			buf = putU32BE(buf, word3)
			offset += n
		} else {
			for w := 0; w < 3; w++ {
				var word uint32
				for b := 0; b < 4 && offset < len(data); b++ {
					word |= uint32(data[offset]) << (24 - 8*b)
					offset++
				}
				buf = putU32BE(buf, word)
			}
		}

		if offset >= len(data) {
			break
		}
	}
	return buf
}

// WriteUMP renders s as a MIDI 2.0 UMP container: the fixed
// "AAAAAAAAEEEEEEEE" magic, a delta-time-spec word, a track count, then
// one "SMF2CLIP" packet stream per emitted track, per spec.md §6.2.
func WriteUMP(s *song.Song, arr *arrangement.Arrangement) []byte {
	const group = 0

	roles := make([]song.TrackRole, 0, 9)
	for _, r := range []song.TrackRole{
		song.RoleVocal, song.RoleChord, song.RoleBass, song.RoleMotif,
		song.RoleArpeggio, song.RoleAux, song.RoleGuitar, song.RoleDrums,
	} {
		if t := s.Tracks[r]; t != nil && len(t.Notes) > 0 {
			roles = append(roles, r)
		}
	}
	numTracks := uint32(len(roles)) + 1 // +1 for the meta/tempo clip

	var out []byte
	out = append(out, []byte("AAAAAAAAEEEEEEEE")...)
	out = putU32BE(out, 0) // delta-time-spec: ticks, matching SMF1's MetricTicks
	out = putU32BE(out, numTracks)

	out = append(out, umpMetaClip(s, arr)...)
	for _, r := range roles {
		out = append(out, umpNoteClip(s, s.Tracks[r], r, group)...)
	}
	return out
}

func umpMetaClip(s *song.Song, arr *arrangement.Arrangement) []byte {
	const group = 0
	var clip []byte
	clip = append(clip, []byte("SMF2CLIP")...)
	clip = writeDCTPQ(clip, uint16(arrangement.TicksPerBeat))
	clip = writeStreamMarker(clip, umpStreamStartOfClip)

	microsPerQuarter := uint32(60000000 / maxInt(s.BPM, 1))
	clip = writeTempo(clip, group, microsPerQuarter)
	clip = writeTimeSignature(clip, group, arrangement.BeatsPerBar, 4)

	for _, sec := range arr.Sections {
		clip = writeDeltaClockstamp(clip, group, 0)
		clip = writeMetadataText(clip, group, sec.Type.String())
	}

	payload := sketchMetadata{
		TakeID: s.ID, Title: s.Title, Key: s.Key, BPM: s.BPM, Seed: s.Seed,
		Mood: arr.Mood.String(), Bars: int(arr.TotalTicks() / arrangement.TicksPerBar),
	}
	if data, err := json.Marshal(payload); err == nil {
		clip = writeDeltaClockstamp(clip, group, 0)
		clip = writeMetadataText(clip, group, "MIDISKETCH:"+string(data))
	}

	clip = writeStreamMarker(clip, umpStreamEndOfClip)
	return clip
}

func umpNoteClip(s *song.Song, t *song.Track, role song.TrackRole, group uint8) []byte {
	var clip []byte
	clip = append(clip, []byte("SMF2CLIP")...)
	clip = writeDCTPQ(clip, uint16(arrangement.TicksPerBeat))
	clip = writeStreamMarker(clip, umpStreamStartOfClip)

	ch := channelForRole(role)
	if role != song.RoleDrums {
		clip = writeDeltaClockstamp(clip, group, 0)
		clip = putU32BE(clip, makeProgramChange(group, ch, gmProgramForRole(role)))
	}

	var events []absEventUMP
	for _, n := range t.Notes {
		pitch := n.Pitch
		if role != song.RoleDrums && s.ModulationApplied && n.StartTick >= s.ModulationTick {
			pitch = transpose(pitch, s.ModulationAmount)
		}
		events = append(events, absEventUMP{n.StartTick, makeNoteOn(group, ch, pitch, n.Velocity)})
		events = append(events, absEventUMP{n.EndTick(), makeNoteOff(group, ch, pitch, 0)})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].tick < events[j].tick })

	prev := uint32(0)
	for _, ev := range events {
		clip = writeDeltaClockstamp(clip, group, ev.tick-prev)
		clip = putU32BE(clip, ev.word)
		prev = ev.tick
	}

	clip = writeStreamMarker(clip, umpStreamEndOfClip)
	return clip
}

type absEventUMP struct {
	tick uint32
	word uint32
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
