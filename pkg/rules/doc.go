// Package rules translates ktlint rule identifiers into the editorconfig
// properties that enable or disable them.
//
// Rules from the standard rule set are addressed by their bare name
// ("no-wildcard-imports"), rules from any other rule set are namespaced with
// a colon ("custom:no-println"). Both map onto a single property key, which
// is what the rule engine reads from `.editorconfig` or from an override set.
package rules
