package storage

import (
	"os"
	"testing"
)

// FuzzLoadState throws arbitrary bytes at the snapshot loader. Whatever
// the file holds, LoadState must not panic and must leave the data
// directory in a usable shape for the next Save.
func FuzzLoadState(f *testing.F) {
	f.Add([]byte(`{"weeks":{},"currentWeekId":"2026-23","activeWeekId":"2026-23","currentDayName":"Monday","streak":0}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(``))
	f.Add([]byte(`null`))
	f.Add([]byte(`[1,2,3]`))
	f.Add([]byte(`{"weeks":{"2026-23":{"template":{"Monday":[{"id":"t","text":"x","category":"gym"}]}}}}`))
	f.Add([]byte("\x00\xff{"))

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(s.StatePath(), data, dataFilePerm); err != nil {
			t.Fatal(err)
		}

		state, _ := s.LoadState()

		// Whatever came back, a save must succeed afterwards.
		if state != nil {
			if err := s.SaveState(*state); err != nil {
				t.Errorf("SaveState after load failed: %v", err)
			}
		}
	})
}
