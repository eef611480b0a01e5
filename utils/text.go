package utils

import (
	"strconv"
	"strings"
)

// IsDigit checks whether the provided string is a base 10 integer.
func IsDigit(strnum string) bool {
	_, err := strconv.ParseInt(strnum, 10, 64)
	return err == nil
}

// SplitTextIntoChunks splits the provided text into chunks of at most chunkSize bytes,
// ensuring that words are not split across chunks.
//
// Args:
//   - text: The text to split into chunks.
//   - chunkSize: The maximum size of each chunk.
//
// Returns:
//   - []string: A slice of strings representing the chunks.
func SplitTextIntoChunks(text string, chunkSize int) (chunks []string) {
	var currentChunk strings.Builder
	var wordSize int

	for _, word := range strings.Fields(text) {
		wordSize = len(word)
		if currentChunk.Len() > 0 && currentChunk.Len()+1+wordSize > chunkSize {
			chunks = append(chunks, currentChunk.String())
			currentChunk.Reset()
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteByte(' ')
		}
		currentChunk.WriteString(word)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return
}

// SplitCommand splits a prefixed command text into its parts.
//
// A "/cmd@botname" suffix is stripped from the command and the command is lowercased.
//
// Args:
//   - text: The raw message text.
//   - prefix: The command prefix, e.g. "/".
//
// Returns:
//   - command: The command name without the prefix.
//   - arguments: The whitespace separated arguments.
//   - argument: Everything after the command, with leading whitespace trimmed.
//   - ok: False if the text is not a command.
func SplitCommand(text, prefix string) (command string, arguments []string, argument string, ok bool) {
	text = strings.TrimLeft(text, "\r\n\t ")
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return
	}

	text = text[len(prefix):]
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(text, fields[0]) {
		return
	}

	command, _, _ = strings.Cut(fields[0], "@")
	command = strings.ToLower(command)
	if command == "" {
		return
	}

	arguments = fields[1:]
	argument = strings.TrimLeft(text[len(fields[0]):], "\r\n\t ")
	ok = true

	return
}

// ParseUserRef parses a command argument naming a user.
//
// Returns the numeric ID for "12345", or the username for "@alice".
// ok is false if the argument is neither.
func ParseUserRef(arg string) (id int64, username string, ok bool) {
	if name, found := strings.CutPrefix(arg, "@"); found {
		if name == "" {
			return
		}
		return 0, name, true
	}

	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, "", true
	}

	return
}
