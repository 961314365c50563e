package schematic_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schematic"
)

const browserConditions = `{
  "container": {
    "browser:Chrome": {
      "fullVersionBrowser:Google Chrome": {
        "default": ["pending"],
        "pending": ["validated", "invalidated"],
        "validated": ["invalidated"],
        "invalidated": ["validated"]
      },
      "fullVersionBrowser:Chromium": ["invalidated;Chromium is invalid", 3],
      "default": ["invalidated;unrecognized Chromium-based browser is invalid", 4]
    },
    "browser:Edg": ["invalidated;Microsoft Edge support is in progress", 5],
    "default": ["invalidated;unrecognized browser is invalid"]
  }
}`

var conditionsLabel = regexp.MustCompile(`^[a-zA-Z0-9_]+(:[a-zA-Z0-9_ ]+)?$`)

func assertConditions(t *testing.T, inst *schematic.Instance) {
	t.Helper()
	container, _ := inst.Get("container")
	chrome, _ := container.(*schematic.Instance).Get("browser:Chrome")
	google, _ := chrome.(*schematic.Instance).Get("fullVersionBrowser:Google Chrome")
	for name, v := range map[string]any{"container": container, "browser:Chrome": chrome, "Google Chrome": google} {
		ci, ok := v.(*schematic.Instance)
		require.Truef(t, ok, "%s is %T", name, v)
		assert.Equal(t, "Conditions", ci.Type().Name(), name)
	}

	chromium, _ := chrome.(*schematic.Instance).Get("fullVersionBrowser:Chromium")
	assert.Equal(t, []any{"invalidated;Chromium is invalid", 3.0}, chromium)
	edge, _ := container.(*schematic.Instance).Get("browser:Edg")
	assert.Equal(t, []any{"invalidated;Microsoft Edge support is in progress", 5.0}, edge)
	pending, _ := google.(*schematic.Instance).Get("pending")
	assert.Equal(t, []any{"validated", "invalidated"}, pending)

	ok, err := inst.Validate()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecursive_DetectorOrArray(t *testing.T) {
	s := schematic.NewScope()
	register(t, s, "ConditionsLabel", schematic.Schema{Regex: conditionsLabel})
	register(t, s, "ConditionsDetector", schematic.Schema{Detector: func(v any) string {
		if _, ok := v.(interface{ Get(string) (any, bool) }); ok {
			return "Conditions"
		}
		return ""
	}})
	register(t, s, "Conditions", schematic.Fields("ConditionsLabel", "ConditionsDetector|(string|integer[])"))
	d := register(t, s, "ContainerObject", schematic.Fields("container", "Conditions"))

	inst, err := d.NewFromJSON([]byte(browserConditions))
	require.NoError(t, err)
	assertConditions(t, inst)

	out, err := inst.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, browserConditions, string(out))
}

func TestRecursive_ValidatorArrayOrSelf(t *testing.T) {
	s := schematic.NewScope()
	register(t, s, "ConditionsLabel", schematic.Schema{Regex: conditionsLabel})
	value := regexp.MustCompile(`^[a-z](;.*)?`)
	register(t, s, "ConditionsValue", schematic.Schema{Validator: func(v any) bool {
		str, ok := v.(string)
		return ok && value.MatchString(str)
	}})
	register(t, s, "Conditions", schematic.Fields("ConditionsLabel", "(ConditionsValue|integer[])|null|Conditions"))
	d := register(t, s, "ContainerObject", schematic.Fields("container", "Conditions"))

	ctx := schematic.Collect(schematic.RecoverValue)
	inst, err := d.NewFromJSON([]byte(browserConditions), ctx)
	require.NoError(t, err)
	assert.Empty(t, ctx.Issues())
	assertConditions(t, inst)

	// a label that fails the key type is reported with its key
	_, err = d.New(schematic.NewObject("container", schematic.NewObject("bad label!", nil)))
	it := cause(t, err)
	assert.Equal(t, schematic.KindKeyMismatch, it.Message)
	assert.Equal(t, "/container/bad label!", it.Path.Pointer())
}
