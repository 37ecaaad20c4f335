/*

Process of compilation

AST dump text ->
	parse ->
Abstract Syntax Tree (ast) ->
	front.Lower ->
Three-Address Code (ir) ->
	back.Select ->
Target Instruction Tree with pseudo locations (asm) ->
	back.AssignStorage ->
Target Instruction Tree with stack slots ->
	back.Legalize ->
Legal Target Instruction Tree ->
	back.Emit ->
Assembly Text

Assembling and linking the text is left to the system toolchain.

*/
package compiler
