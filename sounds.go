/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/afero"

	"github.com/Seednode/foodfest/games/number"
)

var soundCues = []number.Cue{
	number.CueWin,
	number.CueFire,
	number.CueHot,
	number.CueWarm,
	number.CueCold,
	number.CueLose,
}

// soundLibrary resolves audio cues to files. Missing files are not an
// error; the cue is simply not played.
type soundLibrary struct {
	fs     afero.Fs
	prefix string
}

func newSoundLibrary(fs afero.Fs, prefix string) *soundLibrary {
	return &soundLibrary{fs: fs, prefix: prefix}
}

func soundFile(cue number.Cue) string {
	return strings.ToLower(string(cue)) + ".mp3"
}

func knownSound(name string) bool {
	for _, cue := range soundCues {
		if soundFile(cue) == name {
			return true
		}
	}
	return false
}

// URL returns the path a client can fetch the cue from, or "" if there
// is nothing to play.
func (s *soundLibrary) URL(cue number.Cue) string {
	if s == nil || cue == number.CueNone {
		return ""
	}

	name := soundFile(cue)

	ok, err := afero.Exists(s.fs, name)
	if err != nil || !ok {
		return ""
	}

	return s.prefix + "/sounds/" + name
}

func serveSound(cfg *Config, sounds *soundLibrary, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		name := ps.ByName("file")
		if sounds == nil || !knownSound(name) {
			http.NotFound(w, r)
			return
		}

		data, err := afero.ReadFile(sounds.fs, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Sound %s (%s) to %s in %s",
			name,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// humanReadableSize formats a byte count using SI units, for log lines.
func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "kMGTPE"[exp])
}
