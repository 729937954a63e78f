package goseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNavigationWithFlags(t *testing.T) {
	p := NewNavigationWithFlags(NavigationFlagsConfig[string, echoModel, echoMsg]{
		Init: func(flags string, loc Location) (echoModel, Cmd[echoMsg]) {
			return echoModel{flags: flags, last: loc.Path}, None[echoMsg]()
		},
		OnLocationChange: func(loc Location) echoMsg {
			return echoMsg{text: loc.Path}
		},
		Update: func(msg echoMsg, model echoModel) (echoModel, Cmd[echoMsg]) {
			model.last = msg.text
			return model, None[echoMsg]()
		},
	})

	assert.True(t, p.Init.RequiresFlags())
	assert.True(t, p.Init.LocationAware())

	// Initialization sees both the flags and the starting location.
	flags := "token"
	out := p.Init.Resolve(&flags, Location{Path: "/settings"})
	model, cmd, ok := out.Continuing()
	require.True(t, ok, "lifted programs never complete")
	assert.Equal(t, echoModel{flags: "token", last: "/settings"}, model)
	assert.True(t, cmd.IsNone())

	// Location changes flow through the converter into the lifted update.
	handler, ok := p.Init.LocationHandler()
	require.True(t, ok)
	out = p.Update(handler(Location{Path: "/profile"}), model)
	model, cmd, ok = out.Continuing()
	require.True(t, ok)
	assert.Equal(t, "/profile", model.last)
	assert.True(t, cmd.IsNone())

	// The optional fields are normalized away.
	require.NotNil(t, p.Subscriptions)
	require.NotNil(t, p.View)
	assert.Empty(t, p.Subscriptions(model).Sources())
	assert.Equal(t, "", p.View(model).Body)

	requireConfigPanic(t, func() {
		p.Init.Resolve(nil, Location{Path: "/settings"})
	})
}
