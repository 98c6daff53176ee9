package cart

import (
	"encoding/json"
	"fmt"

	cartstate "onova-storefront/internal/cart"
)

// snapshotSchemaVersion tags persisted snapshots so future layout
// changes can migrate stored carts instead of discarding them.
const snapshotSchemaVersion = 1

type snapshotEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Cart          cartstate.State `json:"cart"`
}

func encodeSnapshot(state cartstate.State) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{
		SchemaVersion: snapshotSchemaVersion,
		Cart:          state,
	})
}

// decodeSnapshot accepts the current envelope and the legacy unversioned
// layout (the bare cart object). Snapshots from a newer schema than this
// build understands are rejected.
func decodeSnapshot(payload []byte) (cartstate.State, error) {
	var probe struct {
		SchemaVersion int              `json:"schemaVersion"`
		Cart          *cartstate.State `json:"cart"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return cartstate.State{}, fmt.Errorf("decode snapshot: %w", err)
	}

	if probe.Cart != nil {
		if probe.SchemaVersion > snapshotSchemaVersion {
			return cartstate.State{}, fmt.Errorf("snapshot schema version %d not supported", probe.SchemaVersion)
		}
		return *probe.Cart, nil
	}

	// legacy v0: the state was stored without an envelope
	var legacy cartstate.State
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return cartstate.State{}, fmt.Errorf("decode legacy snapshot: %w", err)
	}
	return legacy, nil
}
