package mcpserver

// Tool descriptions with interpretation guidance for LLMs. Each one says
// what the tool does, when to use it and how to read its results.

func describeMetrics() string {
	return `Computes source code metrics for Rust, Python, TypeScript, TSX and Go files, per file and per nested scope (functions, closures, classes, impls, traits, interfaces).

USE WHEN:
- Finding the most complex functions of a file or a directory
- Checking maintainability before a refactoring
- Comparing the size and shape of modules

INTERPRETING RESULTS:
- cyclomatic.sum > 10 for one function: many independent paths, hard to test
- cognitive.sum > 15 for one function: hard to read, nesting is punished
- mi.mi_visual_studio < 20: poorly maintainable, 20-40 moderate, above 40 good
- halstead.bugs estimates delivered defects from operator and operand counts
- nargs, nexits: parameters and exit points per function
- abc: assignments, branches and conditions
- wmc, npm, npa: class level method complexity and public members
- A null value means the metric is undefined for the scope (zero denominator)

METRICS RETURNED:
- files: one scope tree per file, each scope with name, kind, start_line, end_line, metrics and nested spaces
- summary (when requested): distribution of the main metrics across files and the most complex files
- errors: files that could not be analyzed`
}

func describeFunctions() string {
	return `Lists every function of the given files with its line span.

USE WHEN:
- Locating a function before reading or editing it
- Getting a quick outline of a file
- Counting functions per file

INTERPRETING RESULTS:
- Spans are 1-based and inclusive
- error is true when the function name could not be decoded
- Anonymous functions and closures appear with the name <anonymous>

METRICS RETURNED:
- Per file: path and functions (name, start_line, end_line, error)`
}

func describeOps() string {
	return `Lists the distinct operators and operands (the Halstead vocabulary) of every scope.

USE WHEN:
- Explaining a Halstead metric value
- Inspecting which identifiers and literals a function uses
- Comparing the vocabulary of two implementations

INTERPRETING RESULTS:
- Operators are keywords, punctuation and operator tokens
- Operands are identifiers and literals
- A scope lists its own tokens and those of its nested scopes

METRICS RETURNED:
- Per file: a scope tree with operators and operands sorted alphabetically`
}

func describeCount() string {
	return `Counts syntax nodes matching selectors across files.

USE WHEN:
- Measuring how much of a codebase is comments
- Counting calls, closures, functions or string literals
- Detecting parse errors (selector error)

INTERPRETING RESULTS:
- Selectors are grammar node types (e.g. if_statement), numeric grammar symbols or one of all, call, closure, comment, error, function, string
- A node matching several selectors is counted once
- percentage is found divided by total, times 100

METRICS RETURNED:
- found, total and percentage over all files`
}

func describeDiff() string {
	return `Compares file metrics between two git revisions, the way a pull request check does.

USE WHEN:
- Reviewing the complexity impact of a branch or pull request
- Gating merges on complexity growth
- Summarizing what a change did to the size of the code

INTERPRETING RESULTS:
- delta is current minus baseline
- For cyclomatic, cognitive, functions and lines, a positive delta is worse
- For mi, a positive delta is better
- is_new and is_deleted mark added and removed files
- Without from and to, GitHub Actions events pick the revisions; outside CI main is compared with HEAD

METRICS RETURNED:
- Per changed file: path, flags and one entry per selected metric with current, baseline and delta
- Markdown format renders the summary table used in pull request comments`
}
