/*
Package ports defines the driven ports (interfaces) of the annotation desk.

These interfaces decouple the session engine from external implementations,
allowing it to work with various storage backends and tokenizers.

# Key Interfaces

  - AnnotationStore: Persists and loads one AnnotationRecord per item ID.
  - TokenProvider: Turns the raw text of an item into turns of tokens.
  - DatasetLoader: Reads the ordered list of items to annotate.
*/
package ports
