package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("skip-migrations"))

	down, _, err := root.Find([]string{"migrate", "down"})
	assert.NoError(t, err)
	assert.Equal(t, "down", down.Name())

	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}
