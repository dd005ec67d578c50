// Package manifest renders composed builds into deployment descriptors.
//
// Rendering is the final, purely mechanical pass: it confirms the composed
// build satisfies the descriptor contract (non-empty image, well-formed env
// keys) and freezes the result. A Manifest is immutable once produced and
// owned by the caller; the engine keeps no reference to it.
//
// Two serializations exist:
//   - Encode: the full descriptor delivered to the deployment collaborator,
//     byte-identical across repeated renders of the same composed build
//   - Redacted: a diagnostic copy with secret env values replaced by a marker,
//     safe for logs and API error payloads
package manifest
