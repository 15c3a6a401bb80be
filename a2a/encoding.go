// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	json "github.com/bytedance/sonic"
)

// MarshalPart marshals a [Part] union member to JSON.
func MarshalPart(part Part) ([]byte, error) {
	switch p := part.(type) {
	case TextPart:
		return json.ConfigFastest.Marshal(p)
	case FilePart:
		return json.ConfigFastest.Marshal(p)
	case DataPart:
		return json.ConfigFastest.Marshal(p)
	default:
		return nil, fmt.Errorf("unknown part type: %T", part)
	}
}

// UnmarshalPart unmarshals a JSON part into the appropriate [Part] type
// based on the "type" discriminator field.
func UnmarshalPart(data []byte) (Part, error) {
	var partMap map[string]any
	if err := json.ConfigFastest.Unmarshal(data, &partMap); err != nil {
		return nil, err
	}

	partType, ok := partMap["type"].(string)
	if !ok {
		return nil, fmt.Errorf("part type not found or not a string")
	}

	switch partType {
	case PartTypeText:
		var textPart TextPart
		if err := json.ConfigFastest.Unmarshal(data, &textPart); err != nil {
			return nil, err
		}
		return textPart, nil

	case PartTypeFile:
		var filePart FilePart
		if err := json.ConfigFastest.Unmarshal(data, &filePart); err != nil {
			return nil, err
		}
		return filePart, nil

	case PartTypeData:
		var dataPart DataPart
		if err := json.ConfigFastest.Unmarshal(data, &dataPart); err != nil {
			return nil, err
		}
		return dataPart, nil

	default:
		return nil, fmt.Errorf("unknown part type: %s", partType)
	}
}

// UnmarshalJSON implements json.Unmarshaler for the Part union inside
// Message. Parts are first decoded generically, then routed through
// [UnmarshalPart] so each element gets its concrete type.
func (m *Message) UnmarshalJSON(data []byte) error {
	var aux struct {
		Role     Role             `json:"role"`
		Parts    []map[string]any `json:"parts"`
		Metadata map[string]any   `json:"metadata"`
	}
	if err := json.ConfigFastest.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.Role = aux.Role
	m.Metadata = aux.Metadata
	m.Parts = make([]Part, 0, len(aux.Parts))

	for i, partMap := range aux.Parts {
		partData, err := json.ConfigFastest.Marshal(partMap)
		if err != nil {
			return fmt.Errorf("marshal part at index %d: %w", i, err)
		}
		part, err := UnmarshalPart(partData)
		if err != nil {
			return fmt.Errorf("unmarshal part at index %d: %w", i, err)
		}
		m.Parts = append(m.Parts, part)
	}

	return nil
}
