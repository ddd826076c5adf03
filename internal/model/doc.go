// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the format-agnostic data model of a build
// configuration resolution session. Its core purpose is to give every stage
// (loader, session, resolver, assembler, encoders) one shared vocabulary.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Statement: one declaration from the input document (apply a plugin, set a
//     property, declare a signing config, a build type or a dependency). A
//     session consumes an ordered slice of statements; order is significant.
//
//   - Value: a tagged variant holding either a primitive Scalar (a cty.Value)
//     or a PropertyRef of the form `extension.field`. References stay
//     unresolved until the assembly phase.
//
//   - PropertyEntry: a Value stored under a dotted key in one layer (plugin
//     default, project, or per-variant override).
//
//   - BuildPlan: the frozen result. It exposes accessors only and hands out
//     copies, so nothing downstream can mutate a plan once it is assembled.
//
// Why a separate model package?
//
// The loader knows HCL, the session knows layering and resolution, and the
// encoders know output formats. None of them should know each other. The model
// is the contract they share: a loader can be swapped for another input format
// as long as it produces the same statements, and an executor can consume a
// BuildPlan without knowing how it was resolved.
package model
