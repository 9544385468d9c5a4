// Package todo loads, saves, queries and exports todo.txt files.
//
// A todo.txt file holds one task per line:
//
//	(A) 2011-03-02 Call Mom +Family @phone
//	x 2011-03-03 2011-03-01 Review pull request +TodoTxtTouch @github due:2016-05-30
//	2011-03-02 Document +TodoTxt task format
//
// Each non-blank line is parsed with package todotxt and kept together with
// its 1-based line number. Blank lines are skipped and not preserved on save.
//
// # Export
//
// A File can be exported to a JSON document:
//
//	{
//	  "schema_version": 1,
//	  "source": "todo.txt",
//	  "tasks": [
//	    {
//	      "line": 1,
//	      "completed": false,
//	      "priority": "A",
//	      "creation_date": "2011-03-02",
//	      "description": "Call Mom +Family @phone",
//	      "projects": ["Family"],
//	      "contexts": ["phone"],
//	      "key_values": {}
//	    }
//	  ]
//	}
//
// # Validation
//
// Documents are validated in one of two modes:
//
// 1. JSON Schema validation (default):
//   - The embedded draft-2020-12 schema, or a schema file when provided
//   - Supports: type checking, required fields, patterns, date formats
//
// 2. Minimal fallback validation (when the schema cannot be used):
//   - schema_version and tasks presence
//   - Task field checks (line number, priority letter, tags, key:value pairs)
//
// # File Format
//
// When writing todo.txt files the package renders each task on its own line
// with a trailing newline. JSON documents use 2-space indentation.
package todo
