package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTree = "arbor/tree/v1"
	DomainTurn = "arbor/turn/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TreeHash computes the identity of a tree definition. Two definitions that
// differ only in source positions hash equally.
func TreeHash(def TreeDef) (string, error) {
	canonical, err := MarshalCanonical(def.ToIR())
	if err != nil {
		return "", fmt.Errorf("TreeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTree, canonical), nil
}

// TurnID computes the identity of a turn from its session, sequence number
// and the orders it issued. The ID is stable across replays of the same game.
func TurnID(sessionID string, seq int64, orders []OrderRecord) (string, error) {
	arr := make(IRArray, len(orders))
	for i, o := range orders {
		arr[i] = o.ToIR()
	}
	obj := IRObject{
		"session_id": IRString(sessionID),
		"seq":        IRInt(seq),
		"orders":     arr,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("TurnID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTurn, canonical), nil
}

// MustTurnID is like TurnID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTurnID(sessionID string, seq int64, orders []OrderRecord) string {
	id, err := TurnID(sessionID, seq, orders)
	if err != nil {
		panic(err)
	}
	return id
}
