package shaders

import (
	_ "embed"
)

//go:embed emitter.wgsl
var EmitterWGSL string

//go:embed gravity.wgsl
var GravityWGSL string

//go:embed particle.wgsl
var ParticleWGSL string
