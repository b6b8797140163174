// Package embeddings resolves text into fixed-dimension embedding vectors
// via a chain of providers.
//
// A remote HTTP endpoint is the primary provider. When it fails, the
// Resolver falls back to either a local in-process model (FastEmbed) or a
// hosted feature-extraction API, selected by configuration at startup.
// Every vector returned by the package is normalized to the requested
// dimensionality.
package embeddings
