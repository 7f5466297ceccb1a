// Package java extracts declared Maven and Gradle dependencies.
//
// # Maven
//
// pom.xml dependencies are read from <dependencies> and
// <dependencyManagement>. ${...} placeholders are expanded from
// <properties> and the project coordinates (${project.version} falls back
// to the parent version). A dependency without any version is reported as
// "latest".
//
// # Gradle
//
// build.gradle and build.gradle.kts are scanned with regular expressions
// for three declaration shapes:
//
//	implementation 'com.google.guava:guava:32.1.0-jre'
//	implementation("com.squareup.okhttp3:okhttp:4.12.0")
//	implementation group: 'org.slf4j', name: 'slf4j-api', version: '2.0.9'
//
// # Import hints
//
// [ImportHints] scans Java and Kotlin sources for import statements. It is
// opt-in through [deps.Options].ImportHints and reported separately.
package java
