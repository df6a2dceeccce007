/*
Package domain contains the core data model of the annotation desk.

It defines the items being annotated, their tokenized form, and the annotation
records produced for them. This package is kept pure and free of I/O, following
Hexagonal Architecture principles: stores, tokenizers and presentation layers
live in adapters.

# Key Entities

  - Item: One dataset entry (stable ID plus raw text with separator-joined turns).
  - TokenizedItem: The item split into turns of tokens, each turn closed by EndOfTurn.
  - TokenRef: A (turn, token) coordinate into a TokenizedItem.
  - Slot / TripleRow: The token spans assigned to the five arguments of a triple.
  - AnnotationRecord: Everything persisted for one item (tokens, triples, skipped flag).
*/
package domain
