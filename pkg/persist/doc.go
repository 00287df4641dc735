// Package persist converts lineage graphs to and from their stable JSON
// form and keeps the autosaved copy in a storage backend.
//
// # Wire Format
//
//	{
//	  "nodes": [{"id": "1", "type": "custom", "position": {"x": 0, "y": 0},
//	             "data": {"label": "orders", "style": {"color": "#555", "shape": "rectangle"}}}],
//	  "edges": [{"id": "e1", "source": "1", "target": "2", "type": "custom",
//	             "data": {"label": "New Relation"}, "style": {"stroke": "#000"}}]
//	}
//
// [Serialize] writes exactly these fields (plus markerEnd and the layout
// attachment sides when set). Interaction state such as selection is never
// written.
//
// [Deserialize] accepts any JSON object holding "nodes" and "edges" arrays.
// Malformed JSON is a PARSE_FAILURE; well-formed JSON of any other shape is
// a SCHEMA_VIOLATION. Callers replace their graph only when Deserialize
// succeeds, so a bad payload never disturbs the current state.
//
// # Autosave
//
// An [Autosaver] reads the stored graph once at startup ([Autosaver.Load])
// and writes after every committed change ([Autosaver.Save]). Saves before
// Load are dropped so an empty pre-load graph never overwrites stored data.
package persist
