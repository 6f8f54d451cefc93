package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// A hand cannot take more cards than this before it must bust
const MaxRolloutDepth = 20
