package request

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotQuery struct {
	Duration int `form:"duration" binding:"required,halfhour"`
}

func TestHalfHourRule(t *testing.T) {
	RegisterValidations()
	RegisterValidations()

	for _, tc := range []struct {
		duration int
		ok       bool
	}{
		{30, true}, {60, true}, {90, true}, {45, false}, {-30, false},
	} {
		err := binding.Validator.ValidateStruct(&slotQuery{Duration: tc.duration})
		if tc.ok {
			assert.NoError(t, err, "duration %d", tc.duration)
		} else {
			assert.Error(t, err, "duration %d", tc.duration)
		}
	}
}

func TestDescribe(t *testing.T) {
	RegisterValidations()

	err := binding.Validator.ValidateStruct(&slotQuery{Duration: 45})
	require.Error(t, err)

	fields, ok := Describe(err).([]FieldError)
	require.True(t, ok)
	require.Len(t, fields, 1)
	assert.Equal(t, "Duration", fields[0].Field)
	assert.Equal(t, HalfHourTag, fields[0].Tag)

	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

type pageQuery struct {
	ListParams
}

func TestListParamsBounds(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(&pageQuery{ListParams{Page: 1000000, PageSize: 100}}))
	assert.Error(t, binding.Validator.ValidateStruct(&pageQuery{ListParams{Page: 1000001}}))
	assert.Error(t, binding.Validator.ValidateStruct(&pageQuery{ListParams{PageSize: 101}}))
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
}
