// Package guard provides the two route gates consumed by an external router:
// one requiring a signed-in session, one requiring a specific module/action
// permission. Both are read-only over the session view, mutate nothing, and
// redirect silently when unsatisfied: a navigation policy, not an error
// condition.
package guard
