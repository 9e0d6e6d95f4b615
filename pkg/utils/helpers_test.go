package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42, ParseValue("42"))
	assert.Equal(t, 42, ParseValue(" 42 "))
	assert.Equal(t, -7, ParseValue("-7"))
	assert.Equal(t, 10.5, ParseValue("10.5"))
	assert.Equal(t, 1200.0, ParseValue("1.2e3"))
	assert.Equal(t, "north", ParseValue("north"))
	assert.Equal(t, "", ParseValue("  "))
}

func TestToFloat(t *testing.T) {
	f, ok := ToFloat(3)
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = ToFloat(int64(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	f, ok = ToFloat(2.5)
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = ToFloat("2.5")
	assert.False(t, ok)

	_, ok = ToFloat(nil)
	assert.False(t, ok)
}

func TestHumanizeColumn(t *testing.T) {
	assert.Equal(t, "Cust Id", HumanizeColumn("cust_id"))
	assert.Equal(t, "Order Amt", HumanizeColumn("order-amt"))
	assert.Equal(t, "Revenue", HumanizeColumn("REVENUE"))
	assert.Equal(t, "First Last Name", HumanizeColumn("first_last-name"))
	assert.Equal(t, "", HumanizeColumn(""))
	assert.Equal(t, "", HumanizeColumn("__"))
}
