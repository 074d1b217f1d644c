package usercontext

// KeyUserContext is the Locals key holding the caller
const KeyUserContext = "USER_CONTEXT"
