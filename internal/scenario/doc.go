// Package scenario replays disposal scripts against tracked objects.
//
// A script is a sequence of commands, one per line:
//
//	new conn
//	make conn
//	retain conn
//	dispose conn
//	retain conn        # reported as retain_after_dispose
//
// Protocol violations are not script errors. They are captured as
// diagnostics and attached to the result of the command that caused them.
// Script errors (unknown commands, wrong arity, unknown objects) stop Run.
package scenario
