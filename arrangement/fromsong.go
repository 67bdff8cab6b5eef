package arrangement

import "github.com/ako-music/songforge/song"

// FromSong recovers the *Arrangement a Song was generated against.
// Song.Arrangement is stored as interface{} to avoid this package and
// song importing each other; every Song built by the generation
// pipeline stashes the *Arrangement it was planned against there, so
// the assertion here should never fail for a song this module produced
// itself.
func FromSong(s *song.Song) (*Arrangement, bool) {
	arr, ok := s.Arrangement.(*Arrangement)
	return arr, ok
}
