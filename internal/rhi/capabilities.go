package rhi

import (
	"strings"

	"github.com/tamawizppp213/ARoQEngine-sub002/internal/discovery"
)

// A bit in a device's capability set
type Feature uint32

// Optional device features
const (
	FeatureRayTracing Feature = 1 << iota
	FeatureHDRDisplay
	FeatureVariableRateShading
	FeatureMeshShading
	FeatureDrawIndirect
	FeatureGeometryShader
	FeatureRenderPass
	FeatureDepthBoundsTest
	FeatureSamplerFeedback
	FeatureStencilReferenceFromPixelShader
	FeatureWaveLaneOperations
	FeatureNative16BitOperations
	FeatureAtomicOperations

	featureEnd
)

// The set of every defined feature
const FeatureAll = featureEnd - 1

var featureNames = []struct {
	feature Feature
	name    string
}{
	{FeatureRayTracing, "rayTracing"},
	{FeatureHDRDisplay, "hdrDisplay"},
	{FeatureVariableRateShading, "variableRateShading"},
	{FeatureMeshShading, "meshShading"},
	{FeatureDrawIndirect, "drawIndirect"},
	{FeatureGeometryShader, "geometryShader"},
	{FeatureRenderPass, "renderPass"},
	{FeatureDepthBoundsTest, "depthBoundsTest"},
	{FeatureSamplerFeedback, "samplerFeedback"},
	{FeatureStencilReferenceFromPixelShader, "stencilReferenceFromPixelShader"},
	{FeatureWaveLaneOperations, "waveLaneOperations"},
	{FeatureNative16BitOperations, "native16BitOperations"},
	{FeatureAtomicOperations, "atomicOperations"},
}

func (f Feature) String() string {
	names := []string{}
	for _, entry := range featureNames {
		if f&entry.feature != 0 {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, "|")
}

// The immutable feature set of a device, computed once when the device is created
type Capabilities struct {

	// The features the backend detected
	features Feature

	// Specifies whether the adapter has dedicated video memory
	discrete bool
}

// Combines the features a backend detected with the properties of the adapter the device runs on
func NewCapabilities(features Feature, adapter discovery.AdapterDescriptor) Capabilities {
	return Capabilities{features: features & FeatureAll, discrete: adapter.IsDiscrete()}
}

// Returns the raw feature set
func (c Capabilities) Features() Feature { return c.features }

// Reports whether every feature in the supplied set is available
func (c Capabilities) Supports(f Feature) bool { return c.features&f == f }

func (c Capabilities) IsSupportedRayTracing() bool { return c.Supports(FeatureRayTracing) }

func (c Capabilities) IsSupportedHDR() bool { return c.Supports(FeatureHDRDisplay) }

func (c Capabilities) IsSupportedVariableRateShading() bool {
	return c.Supports(FeatureVariableRateShading)
}

func (c Capabilities) IsSupportedMeshShading() bool { return c.Supports(FeatureMeshShading) }

func (c Capabilities) IsSupportedDrawIndirect() bool { return c.Supports(FeatureDrawIndirect) }

func (c Capabilities) IsSupportedGeometryShader() bool { return c.Supports(FeatureGeometryShader) }

func (c Capabilities) IsSupportedRenderPass() bool { return c.Supports(FeatureRenderPass) }

func (c Capabilities) IsSupportedDepthBoundsTest() bool { return c.Supports(FeatureDepthBoundsTest) }

func (c Capabilities) IsSupportedSamplerFeedback() bool { return c.Supports(FeatureSamplerFeedback) }

func (c Capabilities) IsSupportedStencilReferenceFromPixelShader() bool {
	return c.Supports(FeatureStencilReferenceFromPixelShader)
}

func (c Capabilities) IsSupportedWaveLaneOperation() bool {
	return c.Supports(FeatureWaveLaneOperations)
}

func (c Capabilities) IsSupportedNative16BitOperation() bool {
	return c.Supports(FeatureNative16BitOperations)
}

func (c Capabilities) IsSupportedAtomicOperation() bool { return c.Supports(FeatureAtomicOperations) }

// Reports whether the device runs on an adapter with dedicated video memory
func (c Capabilities) IsDiscreteGPU() bool { return c.discrete }
