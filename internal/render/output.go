package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"formprefill/internal/formidentity"
	"formprefill/internal/mapping"
)

// Outcome classifies a render.
type Outcome string

const (
	OutcomeScript                 Outcome = "script"
	OutcomeNoForm                 Outcome = "no_form"
	OutcomeAmbiguousForm          Outcome = "ambiguous_form"
	OutcomeDefinitionUnresolvable Outcome = "definition_unresolvable"
)

const (
	messageNoForm                 = "No active form found on this page."
	messageAmbiguousForm          = "More than one active form found on this page. Please enter a unique identifier."
	messageDefinitionUnresolvable = "Form definition could not be found."
)

// Diagnostic returns the fixed error block for an outcome, empty for
// OutcomeScript.
func Diagnostic(o Outcome) string {
	var msg string
	switch o {
	case OutcomeNoForm:
		msg = messageNoForm
	case OutcomeAmbiguousForm:
		msg = messageAmbiguousForm
	case OutcomeDefinitionUnresolvable:
		msg = messageDefinitionUnresolvable
	default:
		return ""
	}
	return `<div class="alert alert-danger" role="alert"><b>ERROR:</b> ` + msg + `</div>`
}

// outcomeFor maps a resolver error to its diagnostic. Unknown errors are
// reported as an unresolvable definition.
func outcomeFor(err error) Outcome {
	switch {
	case errors.Is(err, formidentity.ErrAmbiguousForm):
		return OutcomeAmbiguousForm
	case errors.Is(err, formidentity.ErrNoFormFound):
		return OutcomeNoForm
	default:
		return OutcomeDefinitionUnresolvable
	}
}

// Script registers m under formIdentifier on window.formPrefillMappings,
// keeping entries registered by earlier blocks on the same page. Map keys are
// sorted and <, > and & are escaped so the payload cannot close the tag.
func Script(formIdentifier string, m mapping.FieldMapping) (string, error) {
	key, err := json.Marshal(formIdentifier)
	if err != nil {
		return "", fmt.Errorf("encode form identifier: %w", err)
	}
	if m == nil {
		m = mapping.FieldMapping{}
	}
	body, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode mapping: %w", err)
	}

	var b strings.Builder
	b.WriteString("<script>\n")
	b.WriteString("window.formPrefillMappings = window.formPrefillMappings || {};\n")
	fmt.Fprintf(&b, "window.formPrefillMappings[%s] = %s;\n", key, body)
	b.WriteString("</script>")
	return b.String(), nil
}
