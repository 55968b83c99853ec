package index

import (
	"math/bits"
	"strings"

	"github.com/go-dedup/simhash"

	"github.com/patternfirst/patternctl/internal/pattern"
)

// textFeatureSet implements simhash.FeatureSet over free text.
// Features are lowercased word unigrams plus word bigrams; the bigrams
// keep short queries like "create navigation" from colliding with every
// pattern that merely shares one common word.
type textFeatureSet struct {
	text string
}

func (t textFeatureSet) GetFeatures() []simhash.Feature {
	words := strings.Fields(strings.ToLower(t.text))
	features := make([]simhash.Feature, 0, len(words)*2)
	for i, w := range words {
		w = strings.Trim(w, ".,;:!?()[]{}\"'`")
		if w == "" {
			continue
		}
		features = append(features, simhash.NewFeature([]byte(w)))
		if i+1 < len(words) {
			features = append(features, simhash.NewFeature([]byte(w+" "+words[i+1])))
		}
	}
	return features
}

// Fingerprint computes the 64-bit simhash of free text.
func Fingerprint(text string) uint64 {
	sh := simhash.NewSimhash()
	return sh.GetSimhash(textFeatureSet{text: text})
}

// FingerprintText is the canonical text a pattern is fingerprinted
// over: its task plus tags. Queries are short task phrases, so the
// stored fingerprint has to stay at the same scale — hashing the whole
// body would swamp the distance with content-only features. Body terms
// still recall through the full-text index.
func FingerprintText(p *pattern.Pattern) string {
	parts := []string{p.Meta.Task, strings.Join(p.Meta.Tags, " ")}
	return strings.Join(parts, "\n")
}

// HammingDistance counts differing bits between two fingerprints.
// Smaller distance means more similar text.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
