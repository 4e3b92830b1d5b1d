package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightConversions(t *testing.T) {
	assert.InDelta(t, 154.3234, KgToLb(70), 1e-4)
	assert.InDelta(t, 70, LbToKg(KgToLb(70)), eps)
}

func TestHeightConversions(t *testing.T) {
	ft, in := CmToFtIn(175)
	assert.Equal(t, 5, ft)
	assert.Equal(t, 8.9, in)
	assert.Equal(t, 177.8, FtInToCm(5, 10))
}

func TestCmToFtIn_CarriesRoundedFoot(t *testing.T) {
	// 182.85 cm is 71.99 in, which rounds to a whole six feet.
	ft, in := CmToFtIn(182.85)
	assert.Equal(t, 6, ft)
	assert.Equal(t, 0.0, in)
	assert.Equal(t, `6'0"`, FormatHeight(182.85, Imperial))

	for cm := 150.0; cm <= 210; cm += 0.05 {
		_, in := CmToFtIn(cm)
		assert.Less(t, in, 12.0, "cm=%v", cm)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "70 kg", FormatWeight(70, Metric))
	assert.Equal(t, "154.3 lb", FormatWeight(70, Imperial))
	assert.Equal(t, "175 cm", FormatHeight(175, Metric))
	assert.Equal(t, `5'8.9"`, FormatHeight(175, Imperial))
}

func TestParseWeight(t *testing.T) {
	kg, ok := ParseWeight("70", Metric)
	assert.True(t, ok)
	assert.Equal(t, 70.0, kg)

	kg, ok = ParseWeight(" 154.3234 ", Imperial)
	assert.True(t, ok)
	assert.InDelta(t, 70, kg, 1e-4)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, ok := ParseWeight(bad, Metric)
		assert.False(t, ok, bad)
	}
}

func TestParseHeight(t *testing.T) {
	cm, ok := ParseHeight("5", "10")
	assert.True(t, ok)
	assert.Equal(t, 177.8, cm)

	cm, ok = ParseHeight("6", "")
	assert.True(t, ok)
	assert.Equal(t, 182.9, cm)

	for _, bad := range [][2]string{{"5", "12"}, {"-1", "0"}, {"x", "1"}, {"5", "-2"}} {
		_, ok := ParseHeight(bad[0], bad[1])
		assert.False(t, ok, bad)
	}
}
