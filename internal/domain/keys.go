package domain

// KeyPrefix namespaces every key the engine reads or writes in the store.
const KeyPrefix = "discovery:"
