// Package retriever answers queries against the vector index.
//
// The vector retriever embeds the query, fetches the nearest records in
// the tenant namespace, and maps them to documents after score and path
// filtering. Zero results is a valid outcome, not an error; callers who
// want a second opinion can configure a fallback retriever, which
// receives the whole query whenever vector search comes back empty. A
// bleve-backed keyword retriever is provided for exactly that role.
package retriever
