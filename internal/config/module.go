package config

import "go.uber.org/fx"

// Module makes the parsed Config available to the fx graph.
var Module = fx.Options(
	fx.Provide(Load),
)
