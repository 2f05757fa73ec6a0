// Package export turns a corpus snapshot into the two plain-text derivatives
// served to crawlers and LLM tooling: the llms.txt page index and the
// llms-full.txt dump with every normalised page body inlined.
//
// ResolveOrder, Normalize, RenderIndex and RenderFull are pure functions and
// safe for concurrent use. Service adds the single content store read.
package export
