// Package override assembles rule entries into the override set handed to
// the rule engine.
//
// An override set is keyed by property name and remembers insertion order.
// When there is nothing to override, [Assemble] returns the [Empty] sentinel
// rather than a new zero-length set. Code that accepts sets from elsewhere
// should test [Set.IsEmpty], which also covers nil and zero sets.
package override
