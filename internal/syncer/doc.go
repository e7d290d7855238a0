// Package syncer orchestrates writes to the vector index: it embeds
// chunk texts, builds vector records with stable positional ids, and
// upserts them into the tenant's namespace.
//
// Vector ids derive from (userId, projectId, relativePath, chunkIndex),
// never from content. Re-syncing an unchanged project rewrites the same
// ids, and an edited file overwrites its prior vectors in place. Stale
// vectors for deleted files are removed only by a full reindex, which
// wipes the namespace before repopulating it.
package syncer
