// Package export writes the engine's output artifacts: per-user vectors
// and optimal pairing results, each as JSON and as a readable text
// report.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/duetlab/duet/internal/domain/model"
)

const ruleWidth = 100

// WriteVectorsJSON writes exported vectors keyed by "user_<id>".
func WriteVectorsJSON(path string, vectors []model.VectorExport) error {
	out := make(map[string]model.VectorExport, len(vectors))
	for _, v := range vectors {
		out["user_"+v.UserID] = v
	}
	return writeJSON(path, out)
}

// WriteVectorsText writes a human-readable vector report.
func WriteVectorsText(path string, vectors []model.VectorExport) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	b.WriteString(rule + "\n")
	b.WriteString("EMBEDDING VECTORS\n")
	b.WriteString(rule + "\n\n")

	for _, v := range vectors {
		fmt.Fprintf(&b, "User ID: %s\n", v.UserID)
		fmt.Fprintf(&b, "Group: %s\n", v.Group)
		fmt.Fprintf(&b, "Year of Birth: %d\n", v.BirthYear)
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(v.Interests, ", "))
		fmt.Fprintf(&b, "Vector (%d dimensions):\n", len(v.Vector))
		fmt.Fprintf(&b, "  %v\n", v.Vector)
		b.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
	}
	return writeFile(path, b.String())
}

// WritePairsJSON writes the pairing result.
func WritePairsJSON(path string, result model.PairingResult) error {
	return writeJSON(path, result)
}

// WritePairsText writes a human-readable pairing report.
func WritePairsText(path string, result model.PairingResult) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	b.WriteString(rule + "\n")
	b.WriteString("OPTIMAL PAIRING RESULT\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "Total pairs: %d\n", result.PairCount)
	fmt.Fprintf(&b, "Total similarity score: %.4f\n", result.TotalScore)
	fmt.Fprintf(&b, "Average score: %.4f\n\n", result.AverageScore)
	b.WriteString(rule + "\n\n")

	for i, p := range result.Pairs {
		fmt.Fprintf(&b, "Pair %d: %s <-> %s\n", i+1, p.AID, p.BID)
		fmt.Fprintf(&b, "  Similarity: %.4f\n", p.Score)
		b.WriteString(strings.Repeat("-", ruleWidth) + "\n\n")
	}
	return writeFile(path, b.String())
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	return writeFile(path, string(raw)+"\n")
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	return nil
}
