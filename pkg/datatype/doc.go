// Package datatype implements the shared complex value types embedded in
// resources: Coding, CodeableConcept, Quantity, Identifier, Reference,
// HumanName and Period.
//
// Every type follows the same marshalling contract:
//
//   - ParseX accepts any document node and requires object shape; a
//     non-object node fails that value only, never the whole resource.
//   - Collections are parsed element-wise and keep only the elements that
//     parse successfully. A malformed entry is skipped, not fatal, so a
//     materialized collection always holds exactly the elements it counts.
//   - The Document method emits only populated fields.
package datatype
