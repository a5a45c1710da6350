package model

import (
	"encoding/json"
	"fmt"
)

// ActionKind is the closed set of admin actions recorded in the activity log.
type ActionKind int

// Action kinds. ActionUnknown covers values this build does not know.
const (
	ActionUnknown ActionKind = iota
	ActionUserBlock
	ActionUserUnblock
	ActionItemDelete
	ActionReportResolve
	ActionUserVerify
	ActionDuplicateRemove

	numActionKinds
)

// NumActionKinds is the number of defined action kinds, ActionUnknown included.
const NumActionKinds = int(numActionKinds)

var actionKindNames = [...]string{
	ActionUnknown:         "unknown",
	ActionUserBlock:       "user_block",
	ActionUserUnblock:     "user_unblock",
	ActionItemDelete:      "item_delete",
	ActionReportResolve:   "report_resolve",
	ActionUserVerify:      "user_verify",
	ActionDuplicateRemove: "duplicate_remove",
}

// Fails to compile when a kind is added without a name.
var _ [len(actionKindNames) - NumActionKinds]struct{}

// ParseActionKind maps a wire value to its kind.
func ParseActionKind(s string) ActionKind {
	for k, name := range actionKindNames {
		if ActionKind(k) != ActionUnknown && name == s {
			return ActionKind(k)
		}
	}
	return ActionUnknown
}

func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionKindNames) {
		return actionKindNames[ActionUnknown]
	}
	return actionKindNames[k]
}

// UnmarshalJSON decodes the wire string; unknown values become ActionUnknown.
func (k *ActionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("action_type must be a string: %w", err)
	}
	*k = ParseActionKind(s)
	return nil
}

// MarshalJSON encodes the wire string.
func (k ActionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ActivityLogEntry is one admin action as recorded by the backend.
type ActivityLogEntry struct {
	AdminName   string     `json:"admin_name"`
	ActionType  ActionKind `json:"action_type"`
	Description string     `json:"description"`
	CreatedAt   Timestamp  `json:"created_at"`
	IPAddress   string     `json:"ip_address"`
}
