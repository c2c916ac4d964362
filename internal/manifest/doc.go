// Package manifest loads the replacement-audio manifests consumed by the
// timeline reconstructor and the mixer.
//
// A manifest is a JSON or YAML list of {start, end?, duration?, path}
// entries. When duration is absent it is derived as end minus start.
package manifest
