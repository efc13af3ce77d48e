package validation

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		status  Status
		message string
		reason  IdentifierReason
	}{
		{name: "valid", id: "VRDTST01A01H501A", status: StatusPass, message: "✅ OK"},
		{name: "valid other", id: "MRORSS80A01F205X", status: StatusPass, message: "✅ OK"},
		{name: "missing", id: "", status: StatusFail, message: "❌ Identifier missing.", reason: IdentifierMissing},
		{
			name:    "too short",
			id:      "CFOKAY789VALIDZ",
			status:  StatusFail,
			message: "❌ Identifier invalid (wrong base format: 16 alphanumeric characters).",
			reason:  IdentifierBadFormat,
		},
		{
			name:    "symbols",
			id:      "INVALID!",
			status:  StatusFail,
			message: "❌ Identifier invalid (wrong base format: 16 alphanumeric characters).",
			reason:  IdentifierBadFormat,
		},
		{
			name:    "lowercase is not cleaned here",
			id:      "vrdtst01a01h501a",
			status:  StatusFail,
			message: "❌ Identifier invalid (wrong base format: 16 alphanumeric characters).",
			reason:  IdentifierBadFormat,
		},
		{
			name:    "omocodia substitution",
			id:      "VRDTST0LA01H501A",
			status:  StatusFail,
			message: "❌ Identifier invalid (letter/digit structure non-conforming).",
			reason:  IdentifierBadStructure,
		},
		{
			name:    "all digits",
			id:      "1234567890123456",
			status:  StatusFail,
			message: "❌ Identifier invalid (letter/digit structure non-conforming).",
			reason:  IdentifierBadStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateIdentifier(tt.id)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.message, got.Message)
			if tt.status == StatusPass {
				assert.NoError(t, got.Err)
				return
			}
			var idErr *IdentifierError
			assert.True(t, errors.As(got.Err, &idErr))
			assert.Equal(t, tt.reason, idErr.Reason)
			assert.Equal(t, tt.id, idErr.GetIdentifier())
		})
	}
}
