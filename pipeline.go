package rsxcache

import "fmt"

// pipelineKey identifies a linked pipeline: the two program identities
// plus the fixed pipeline state baked into the object. Program ids stand
// in for program content — they are content-deduplicated, so equal
// microcode always yields equal ids.
type pipelineKey[P comparable] struct {
	vertexID   uint32
	fragmentID uint32
	props      P
}

// GetOrBuildPipeline resolves the draw's vertex and fragment programs
// (compiling on first sight) and returns the linked pipeline object for
// the resulting (vertex id, fragment id, properties) triple, building it
// on first sight.
//
// extra is passed through to the backend's build operation unchanged.
//
// The returned pipeline stays valid until the cache is destroyed. Two
// draws whose microcode is respectively content-equal and whose
// properties are equal receive the same pipeline object.
func (c *Cache[V, F, S, P, E]) GetOrBuildPipeline(
	vp *VertexProgram,
	fp *FragmentProgram,
	props P,
	extra E,
) (S, error) {
	var zero S

	vertex, vertexHit, err := c.GetOrCompileVertexProgram(vp)
	if err != nil {
		return zero, err
	}
	fragment, fragmentHit, err := c.GetOrCompileFragmentProgram(fp)
	if err != nil {
		return zero, err
	}

	key := pipelineKey[P]{vertexID: vertex.ID, fragmentID: fragment.ID, props: props}

	// A freshly assigned program id cannot appear in any existing key, so
	// the map lookup is only worth doing when both programs were hits.
	if vertexHit && fragmentHit {
		if pipeline, ok := c.pipelines[key]; ok {
			c.pipelineHits++
			return pipeline, nil
		}
	}
	c.pipelineMisses++

	pipeline, err := c.backend.BuildPipeline(vertex, fragment, props, extra)
	if err != nil {
		return zero, fmt.Errorf("rsxcache: build pipeline: %w", err)
	}
	c.pipelines[key] = pipeline

	c.logger().Debug("pipeline linked",
		"vertex_id", vertex.ID, "fragment_id", fragment.ID)
	return pipeline, nil
}

// PipelineCount returns the number of linked pipelines built so far.
func (c *Cache[V, F, S, P, E]) PipelineCount() int { return len(c.pipelines) }
