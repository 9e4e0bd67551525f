package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// maxProbeBody caps how much of a health response is read when the body
// is inspected. Actuator health payloads are tiny; anything larger is
// not the endpoint we expect.
const maxProbeBody = 1 << 20

// probe performs a single readiness attempt. A nil return means ready;
// every other condition is reported as an error so the polling loop can
// log why the target is not ready yet.
func (c ReadinessCheck) probe(ctx context.Context, client *http.Client, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %s", resp.Status)
	}
	if c.ExpectStatus == "" {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBody))
	if err != nil {
		return err
	}
	status := gjson.GetBytes(body, "status")
	if !status.Exists() {
		return errors.New(`health body has no "status" field`)
	}
	if status.String() != c.ExpectStatus {
		return fmt.Errorf("health status %q, want %q", status.String(), c.ExpectStatus)
	}
	return nil
}
