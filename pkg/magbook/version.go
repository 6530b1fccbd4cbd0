package magbook

const Version = "0.1.0"
