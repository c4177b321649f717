package main

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	require.NoError(t, run(&out, logger, 8))

	s := out.String()
	assert.Contains(t, s, "main.HomeController")
	assert.Contains(t, s, "main.AccountController")
	assert.Contains(t, s, "flash=welcome back")
	assert.Contains(t, s, "does not expose a property of type TempDataDictionary")
	assert.NotContains(t, s, "Scratch")
}

func TestRunInvalidCacheSize(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	assert.Error(t, run(&bytes.Buffer{}, logger, 0))
}
