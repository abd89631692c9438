package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/premdoors/qc-tracker/constants"
)

func TestLoadTemplate(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)
	require.Equal(t, 18, tpl.Len())

	defs := tpl.Definitions()
	assert.Equal(t, "configuration", defs[0].ID)
	assert.Equal(t, "Configuration", defs[0].Name)
	assert.Equal(t, "overall-finish", defs[len(defs)-1].ID)

	var optional []string
	for _, d := range defs {
		if d.IsOptional {
			optional = append(optional, d.ID)
		}
	}
	assert.Equal(t, []string{"kitform", "kitform-hardware"}, optional)
}

func TestGenerateFreshChecklist(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)

	items := tpl.Generate()
	require.Len(t, items, tpl.Len())

	for i, d := range tpl.Definitions() {
		assert.Equal(t, d.ID, items[i].ID)
		assert.Equal(t, d.Name, items[i].Name)
		assert.Equal(t, d.IsOptional, items[i].IsOptional)
		assert.Equal(t, constants.ChecklistUnchecked, items[i].Status)
		assert.Empty(t, items[i].Comment)
		require.NotNil(t, items[i].Images)
		assert.Empty(t, items[i].Images)
	}
}

func TestGenerateReturnsIndependentChecklists(t *testing.T) {
	tpl, err := Load()
	require.NoError(t, err)

	a := tpl.Generate()
	b := tpl.Generate()
	a[0].Status = constants.ChecklistFail
	a[0].Comment = "scratched"

	assert.Equal(t, constants.ChecklistUnchecked, b[0].Status)
	assert.Empty(t, b[0].Comment)
}

func TestValidateTemplateJSONRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"not an array":  `{"id":"x","name":"X"}`,
		"missing name":  `[{"id":"x"}]`,
		"bad id format": `[{"id":"Not Kebab","name":"X"}]`,
		"empty id":      `[{"id":"","name":"X"}]`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, validateTemplateJSON([]byte(data)))
		})
	}
}
