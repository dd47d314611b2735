package crystal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// CommandPredictor runs an external engine: the request is written to stdin as JSON and a
// JSON array of points is read from stdout.
type CommandPredictor struct {
	Path string
	Args []string
}

// Predict implements Predictor.
func (c CommandPredictor) Predict(ctx context.Context, req PredictRequest) ([]Point, error) {
	in, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdin = bytes.NewReader(in)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.Path, err, bytes.TrimSpace(stderr.Bytes()))
	}
	var points []Point
	if err := json.Unmarshal(stdout.Bytes(), &points); err != nil {
		return nil, fmt.Errorf("%s: invalid output: %w", c.Path, err)
	}
	return points, nil
}
