// Package toolchain runs the external sheet tools and locates the directory
// they live in.
//
// Files:
//   - invoke.go:  Run, one synchronous tool call under a timeout with
//     captured output and expected-output verification
//   - args.go:    argument builders for the pack and compile tools
//   - errors.go:  ToolFailure, ErrTimeout and output diagnostics
//   - resolve.go: Resolver implementations (explicit path, Steam lookup, chain)
//
// A tool's exit status never decides success. Both tools are known to exit
// non-zero after producing valid output, so Run judges an invocation only by
// whether every expected output exists afterwards.
package toolchain
