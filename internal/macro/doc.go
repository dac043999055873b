// Package macro is the "external collaborator" the tracker core assumes
// but never imports: the assertion-framework glue that drives a
// *part.Context through repeated cycles and expands a test body's
// Section/Generator/Fail calls into acquire/open/close calls against it.
//
// A real host framework's SECTION, GENERATE and REQUIRE macros would
// expand to calls into this package. It exists here to give the core
// package something real to run under test, and to be the layer
// cmd/partctl's demo drives its scenario bodies through.
// internal/planfile does not use it: its synthetic bodies call
// part.AcquireSection/AcquireGenerator directly.
package macro
