// Package chatsanitizer turns untrusted HTML from assistant chat
// replies into markup that is safe to insert into a live page.
//
// # Overview
//
// chatsanitizer parses a string as a <body> fragment using the
// golang.org/x/net/html tree builder, rebuilds a new tree that keeps
// only the tags of a [Policy], and serializes it. Disallowed elements
// are unwrapped rather than deleted: their text and any allowed
// descendants stay where they were. Comments are removed together with
// their content.
//
// The tree builder repairs malformed markup, and repaired output can
// parse into a slightly different tree. Sanitize therefore repeats the
// parse, filter and serialize round, at most four times, until the
// output stops changing. This makes Sanitize(Sanitize(x)) equal to
// Sanitize(x).
//
// Input nested more than 512 elements deep is refused by the tree
// builder. Such input is first rebuilt from its token stream, keeping
// text and allowed tags nested at most 64 deep, and then sanitized as
// usual.
//
// # Links
//
// The only attribute that survives is href on links. The value is
// resolved against [Policy.Origin]; when it does not parse, or the
// resolved scheme is not in [Policy.AllowedSchemes], the href is
// dropped and the link is left as plain text. A link that keeps its
// href always gets target="_blank" and rel="noopener noreferrer".
//
// Protocol-relative hrefs such as //example.org/x take their scheme
// from the origin and therefore pass, even though they point to another
// host.
//
// # Policies
//
// [ChatPolicy] is the policy used for chat replies. A [Sanitizer] is
// the compiled form of a policy and does not change after [New].
//
// # Thread Safety
//
// A Sanitizer holds no mutable state. Sanitize, SanitizeReader and
// StripTags are safe for concurrent use.
//
// # Example
//
//	clean := chatsanitizer.Sanitize(reply)
package chatsanitizer
