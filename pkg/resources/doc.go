// Package resources implements the concrete resource kinds: Patient,
// CarePlan, CareTeam, Goal, ServiceRequest, NutritionOrder,
// RiskAssessment, VisionPrescription and PractitionerRole.
//
// Every kind embeds resource.Base and supplies the full dispatch
// contract. Importing this package registers all built-in kinds with the
// default registry.
//
// The marshalling discipline is shared across kinds:
//
//   - Populate works on a scratch copy and commits only on success, so a
//     failed populate leaves the resource in its prior state.
//   - Code-valued scalars (status, intent, gender) must be strings when
//     present; any other shape fails the populate. Unrecognized code
//     values degrade to the kind's default, they do not fail.
//   - Complex sub-values and collection elements that fail to parse are
//     dropped individually, never fatally.
package resources
