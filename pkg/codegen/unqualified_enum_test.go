package codegen_test

import (
	"testing"

	"github.com/jlaustill/cnext/pkg/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUnqualifiedEnum_RejectsBareMemberOfWrongEnum(t *testing.T) {
	store, files := parseAndCollect(t, `enum Color { RED, GREEN, BLUE }
enum Size { SMALL, MEDIUM, LARGE }
void paint(Color c) {}
void run() {
    paint(SMALL);
}`)

	errs := codegen.ValidateUnqualifiedEnum(files[0], store)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "E0424")
	assert.Contains(t, errs[0].Error(), "Size.SMALL")
}

func TestValidateUnqualifiedEnum_AllowsMatchingEnumMember(t *testing.T) {
	store, files := parseAndCollect(t, `enum Color { RED, GREEN, BLUE }
void paint(Color c) {}
void run() {
    paint(RED);
}`)

	errs := codegen.ValidateUnqualifiedEnum(files[0], store)
	assert.Empty(t, errs)
}
