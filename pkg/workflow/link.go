package workflow

import (
	"encoding/json"
	"fmt"
)

// LinkDoc is a serialized link. On the wire it is the array
// [id, origin_id, origin_slot, target_id, target_slot, type].
type LinkDoc struct {
	ID         int
	OriginID   int
	OriginSlot int
	TargetID   int
	TargetSlot int
	Type       string
}

// linkObject is the object form some exporters write instead of the array.
type linkObject struct {
	ID         int    `json:"id"`
	OriginID   int    `json:"origin_id"`
	OriginSlot int    `json:"origin_slot"`
	TargetID   int    `json:"target_id"`
	TargetSlot int    `json:"target_slot"`
	Type       string `json:"type"`
}

// MarshalJSON writes the array form.
func (l LinkDoc) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.ID, l.OriginID, l.OriginSlot, l.TargetID, l.TargetSlot, l.Type})
}

// UnmarshalJSON accepts both the array and the object form.
func (l *LinkDoc) UnmarshalJSON(data []byte) error {
	var obj linkObject
	if err := json.Unmarshal(data, &obj); err == nil {
		*l = LinkDoc(obj)
		return nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("link: expected array or object: %w", err)
	}
	if len(arr) < 5 {
		return fmt.Errorf("link: expected at least 5 elements, got %d", len(arr))
	}

	ints := []*int{&l.ID, &l.OriginID, &l.OriginSlot, &l.TargetID, &l.TargetSlot}
	for i, dst := range ints {
		if err := json.Unmarshal(arr[i], dst); err != nil {
			return fmt.Errorf("link: element %d: %w", i, err)
		}
	}

	l.Type = "*"
	if len(arr) > 5 {
		var typ string
		if err := json.Unmarshal(arr[5], &typ); err == nil && typ != "" {
			l.Type = typ
		}
	}
	return nil
}
