package models

var AddLike = addLike
