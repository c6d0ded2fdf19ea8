//go:build property
// +build property

package blog

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestReadingTimeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reading time is at least one minute", prop.ForAll(
		func(words, wpm int) bool {
			return ReadingTime(strings.Repeat("pace ", words), wpm) >= 1
		},
		gen.IntRange(0, 5000),
		gen.IntRange(-10, 600),
	))

	properties.Property("reading time covers every word", prop.ForAll(
		func(words, wpm int) bool {
			minutes := ReadingTime(strings.Repeat("pace ", words), wpm)
			return minutes*wpm >= words && (minutes-1)*wpm < max(words, 1)
		},
		gen.IntRange(0, 5000),
		gen.IntRange(1, 600),
	))

	properties.Property("reading time never decreases as words grow", prop.ForAll(
		func(words, extra int) bool {
			base := ReadingTime(strings.Repeat("pace ", words), DefaultWordsPerMinute)
			grown := ReadingTime(strings.Repeat("pace ", words+extra), DefaultWordsPerMinute)
			return grown >= base
		},
		gen.IntRange(0, 3000),
		gen.IntRange(0, 3000),
	))

	properties.TestingRun(t)
}
