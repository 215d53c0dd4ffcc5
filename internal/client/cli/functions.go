package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/void2610/online-type-game/internal/client/client"
)

// Invoke: invoke <function> [json]. The reply is printed as returned.
func (a *App) Invoke(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: invoke <function> [json]", errUsage)
	}
	name := args[0]

	var body any
	if raw := strings.Join(args[1:], " "); raw != "" {
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("invoke %s: body is not valid JSON", name)
		}
		body = json.RawMessage(raw)
	}

	reply, err := client.Invoke[json.RawMessage](ctx, a.client, name, body)
	if err != nil {
		return err
	}
	if reply == nil {
		a.printf("%s: no content\n", name)
		return nil
	}
	a.printf("%s: %s\n", name, *reply)
	return nil
}
